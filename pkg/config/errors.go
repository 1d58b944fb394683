package config

import "errors"

var (
	ErrLoadFile = errors.New("config: failed to load file")
	ErrLoadEnv  = errors.New("config: failed to load environment")
	ErrDecode   = errors.New("config: failed to decode")
	ErrInvalid  = errors.New("config: invalid configuration")
)
