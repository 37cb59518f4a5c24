package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/repository"
	"github.com/maxviazov/company-employees-service/internal/service"
)

// pathID parses a uuid route parameter. A malformed id names no resource, so it is a 404.
func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", name, c.Param(name), repository.ErrNotFound)
	}
	return id, nil
}

// parseIDList reads "(id1,id2)" or "id1,id2".
func parseIDList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, service.NewInvalidInputError([]service.FieldError{{Field: "ids", Message: fmt.Sprintf("%q is not a valid id", part)}})
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, service.NewInvalidInputError([]service.FieldError{{Field: "ids", Message: "parameter ids is empty"}})
	}
	return ids, nil
}

func invalidBody() error {
	return service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "request body is missing or malformed"}})
}
