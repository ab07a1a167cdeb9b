package magic

import "errors"

// ErrNoValidOrdering is returned when a clause's body admits no SIP
// ordering consistent with the call pattern under adornment, or with its
// negation-placement constraint (§8 scenario 5's "invalid SIP" case lifted
// into the driver).
var ErrNoValidOrdering = errors.New("magic: no valid SIP ordering for clause")
