package core

import (
	"context"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// ParamID is the path parameter that carries the resource identifier.
const ParamID = "id"

func (c *Controller) defaultExecuteHooks() map[Operation]Hook {
	return map[Operation]Hook{
		OperationCreate: HookFunc(c.create),
		OperationGet:    HookFunc(c.get),
		OperationGetAll: HookFunc(c.getAll),
		OperationUpdate: HookFunc(c.update),
		OperationDelete: HookFunc(c.delete),
	}
}

func (c *Controller) create(ctx context.Context, ex *Exchange) error {
	idField := c.config.IdentityField
	body := ex.Request.Body.Clone()
	if body == nil {
		body = Record{}
	}

	if raw, ok := body[idField]; ok && !isBlank(raw) {
		id, err := c.identity.Parse(raw)
		if err != nil {
			return newMalformedIdentifierError(err)
		}
		body[idField] = id
		ex.Request.Body[idField] = id
	}

	created, err := c.store.Insert(ctx, body)
	if err != nil {
		return err
	}

	id, ok := created[idField]
	if !ok || id == nil {
		return c.inconsistentSnapshotError("insert returned no identity")
	}
	ex.Request.Params[ParamID] = fmt.Sprint(id)

	record, err := c.store.FindOne(ctx, Criteria{idField: id}, c.projection)
	if err != nil {
		return err
	}
	if record == nil {
		return c.inconsistentSnapshotError("created record could not be reloaded")
	}

	ex.JSON(http.StatusCreated, c.projection.Apply(record))
	return nil
}

func (c *Controller) get(ctx context.Context, ex *Exchange) error {
	criteria := c.resolver.Resolve(ex.Param(ParamID))

	record, err := c.store.FindOne(ctx, criteria, c.projection)
	if err != nil {
		return err
	}
	if record == nil {
		return NewNotFoundError(c.config.ResourceName)
	}

	ex.JSON(http.StatusOK, c.projection.Apply(record))
	return nil
}

func (c *Controller) getAll(ctx context.Context, ex *Exchange) error {
	page, err := ParsePagination(ex.Request.Query, c.config.Pagination.DefaultLimit, c.config.Pagination.MaxLimit)
	if err != nil {
		return err
	}
	conditions := QueryConditions(ex.Request.Query)

	count, err := c.store.Count(ctx, conditions)
	if err != nil {
		return err
	}

	records, err := c.store.Find(ctx, conditions, c.projection, FindOptions{
		Skip:  page.Skip,
		Limit: page.Limit,
		Sort:  page.Sort,
	})
	if err != nil {
		return err
	}

	items := make([]Record, 0, len(records))
	for _, record := range records {
		items = append(items, c.projection.Apply(record))
	}

	ex.JSON(http.StatusOK, map[string]any{
		"count": count,
		"skip":  page.Skip,
		"limit": page.Limit,
		c.config.PluralName: items,
	})
	return nil
}

func (c *Controller) update(ctx context.Context, ex *Exchange) error {
	idField := c.config.IdentityField
	criteria := c.resolver.Resolve(ex.Param(ParamID))

	// identity and revision are owned by the store
	patch := ex.Request.Body.Clone()
	delete(patch, idField)
	delete(patch, VersionField)

	updated, err := c.store.FindOneAndUpdate(ctx, criteria, patch)
	if err != nil {
		return err
	}
	if updated == nil {
		return NewNotFoundError(c.config.ResourceName)
	}

	record, err := c.store.FindOne(ctx, Criteria{idField: updated[idField]}, c.projection)
	if err != nil {
		return err
	}
	if record == nil {
		return NewNotFoundError(c.config.ResourceName)
	}

	ex.JSON(http.StatusOK, c.projection.Apply(record))
	return nil
}

// delete answers 204 whether or not a record matched.
func (c *Controller) delete(ctx context.Context, ex *Exchange) error {
	criteria := c.resolver.Resolve(ex.Param(ParamID))

	if _, err := c.store.FindOneAndRemove(ctx, criteria); err != nil {
		return err
	}

	ex.NoContent()
	return nil
}

func (c *Controller) inconsistentSnapshotError(detail string) error {
	return NewNotFoundError(c.config.ResourceName).
		WithTextCode(ResourceErrorInconsistentSnapshot).
		WithMetadata(map[string]any{"detail": detail}).
		WithSeverity(goerrors.SeverityCritical)
}
