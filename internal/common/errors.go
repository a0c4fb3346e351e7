package common

import "errors"

// ErrorCorruptedData marks stored data that cannot be decoded (e.g. a
// half-written preference).
var ErrorCorruptedData = errors.New("corrupted local data")
