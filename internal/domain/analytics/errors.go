package analytics

import "errors"

var ErrMonthOutOfRange = errors.New("month out of range")
