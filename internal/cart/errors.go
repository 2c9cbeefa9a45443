package cart

import "errors"

// ErrInvalidQuantity is returned for quantities that would break the
// "quantity >= 1 while present" rule. Zero is not invalid for SetQuantity,
// it means remove.
var ErrInvalidQuantity = errors.New("invalid quantity")
