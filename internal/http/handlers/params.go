package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/apierr"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.BadRequest(apierr.CodeInvalidArgument,
			fmt.Errorf("invalid %s %q: %w", name, raw, pkgerrors.ErrInvalidArgument))
	}
	return id, nil
}

// boolQuery treats a missing parameter as false.
func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierr.BadRequest(apierr.CodeInvalidArgument,
			fmt.Errorf("invalid %s %q: %w", name, raw, pkgerrors.ErrInvalidArgument))
	}
	return v, nil
}

func badBody(err error) error {
	return apierr.BadRequest(apierr.CodeInvalidArgument, fmt.Errorf("invalid request body: %v: %w", err, pkgerrors.ErrInvalidArgument))
}
