package customerrepo

import "errors"

var ErrNotFound = errors.New("customer not found")
