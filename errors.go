package uniflow

import (
	ferrors "git.home.luguber.info/inful/uniflow/internal/foundation/errors"
)

// Sentinel errors returned by Store. Both are classified errors; use
// errors.Is to match them.
var (
	// ErrStoreDestroyed is returned by Emit once Destroy has begun. Publish
	// and Go become silent no-ops instead, since they have no error return.
	ErrStoreDestroyed error = ferrors.LifecycleError("store destroyed").Build()

	// ErrEffectOverflow is returned by Emit under OverflowFail when the
	// effect buffer is full.
	ErrEffectOverflow error = ferrors.OverflowError("effect buffer full").Build()
)
