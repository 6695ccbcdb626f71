package service

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNetworkNotFound = errors.New("network not found")
	ErrPlanNotFound    = errors.New("plan not found")
)
