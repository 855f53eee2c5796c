package service

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidTrip 行程未通过提交前校验
	ErrInvalidTrip = errors.New("invalid trip")
	// ErrDutyConflict 车辆已在出车中
	ErrDutyConflict = errors.New("vehicle already on duty")
	// ErrInvalidInput 其他输入错误
	ErrInvalidInput = errors.New("invalid input")
)
