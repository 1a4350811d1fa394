// Package users is the reference user resource. It registers hooks on a core
// controller to normalize input, validate required fields, keep email
// addresses unique and store bcrypt password hashes.
package users
