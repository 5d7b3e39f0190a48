package fieldmath

import "errors"

var errInverseUndefined = errors.New("fieldmath: inverse undefined for zero")
