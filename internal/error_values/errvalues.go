package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrMedicationNotFound  = errors.New("medication not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrOwnerNotFound       = errors.New("owner not found")

	ErrDoseAlreadyLogged = errors.New("dose already logged for this time today")
	ErrEmptyTimeOfDay    = errors.New("medication must keep at least one time of day")
	ErrEmptyPatch        = errors.New("patch contains no settable fields")
)
