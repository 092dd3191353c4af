package forest

import "github.com/cockroachdb/errors"

var ErrUnknownTree = errors.New("forest: unknown tree")
