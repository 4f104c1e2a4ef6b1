// Package service implements the Connect handlers for accounts, split
// optimization, expense history, settings and the product archive.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitticket/internal/auth"
	"github.com/mmynk/splitticket/internal/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateMsg checks the struct tags on a request message and reports every
// failing field in one InvalidArgument error.
func validateMsg(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(problems, "; ")))
}

// requireUser returns the caller's user ID or an Unauthenticated error.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
