package adapter

import "errors"

var errDuplicateWaybill = errors.New("duplicate waybill number")
