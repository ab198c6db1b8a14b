package desktop

import "github.com/kxwm/tilewm/store"

// State is an alias so the desktop package's handlers, commands and
// layouts can take *State without desktop and store importing each
// other in a cycle — store owns the data, desktop owns the behavior
// that mutates it.
type State = store.State
