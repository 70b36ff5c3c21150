package services

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidField       = errors.New("field is not editable")
	ErrRestoreParse       = errors.New("restore payload is not valid JSON")
	ErrRestoreShape       = errors.New("restore payload must be an array of records")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrUserExists         = errors.New("username already registered")
	ErrInvalidPIN         = errors.New("invalid access PIN")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidBackupName  = errors.New("invalid backup filename")
	ErrUnsupportedDump    = errors.New("unsupported dump format")
)
