package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

var unauthenticatedErrors = []error{
	common.ErrInvalidCredentials,
	common.ErrTokenExpired,
	common.ErrInvalidToken,
	common.ErrUnauthorized,
}

// mapError turns a gRPC status into the matching sentinel error.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, strings.TrimPrefix(msg, common.ErrValidation.Error()+": "))
	case codes.AlreadyExists:
		return common.ErrConflict
	case codes.NotFound:
		return common.ErrNotFound
	case codes.Unauthenticated:
		for _, e := range unauthenticatedErrors {
			if msg == e.Error() {
				if e == common.ErrTokenExpired {
					return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
				}
				return e
			}
		}
		return common.ErrUnauthorized
	case codes.Internal:
		switch msg {
		case common.ErrStorage.Error():
			return common.ErrStorage
		case common.ErrRetrieval.Error():
			return common.ErrRetrieval
		}
		return common.ErrInternal
	}

	return err
}
