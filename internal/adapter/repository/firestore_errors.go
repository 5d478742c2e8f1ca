package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parcelmama/pkg/errors"
)

// firestoreError maps a Firestore/gRPC failure onto an AppError. AppErrors
// raised inside transactions pass through untouched.
func firestoreError(resource, action string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Unavailable(fmt.Sprintf("Timed out trying to %s", action), err)
	}

	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(fmt.Sprintf("%s already exists", resource), err)
	case codes.Aborted:
		return errors.Conflict(fmt.Sprintf("Concurrent update on %s, try again", resource), err)
	case codes.DeadlineExceeded, codes.Unavailable:
		return errors.Unavailable(fmt.Sprintf("Failed to %s", action), err)
	}

	return errors.Internal(fmt.Sprintf("Failed to %s", action), err)
}
