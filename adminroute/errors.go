package adminroute

import "errors"

// ErrWrongArgument is matched by every *WrongArgumentError.
var ErrWrongArgument = errors.New("wrong argument")

const invalidAdminInstance = "You have to pass an instance of admin.Admin to adminroute.Register"

// WrongArgumentError reports a configuration mistake caught before any route
// is registered.
type WrongArgumentError struct {
	Message string
	Err     error
}

// Name is the error's type name.
func (e *WrongArgumentError) Name() string { return "WrongArgumentError" }

func (e *WrongArgumentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *WrongArgumentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrWrongArgument, e.Err}
	}
	return []error{ErrWrongArgument}
}
