// Package httpapi exposes a resource controller as REST routes on a chi router.
//
//	POST   /       create
//	GET    /       getAll
//	GET    /{id}   get
//	PUT    /{id}   update
//	PATCH  /{id}   update
//	DELETE /{id}   delete
//
// Failures are rendered as a go-errors envelope with the mapped status code.
package httpapi
