// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Role is the access level carried by a session token.
type Role string

const (
	// RoleReader is granted to every reading session.
	RoleReader Role = "reader"

	// RoleOperator may also purge the content cache.
	RoleOperator Role = "operator"
)

// AtLeast reports whether r grants everything target grants. Unknown roles grant nothing.
func (r Role) AtLeast(target Role) bool {
	return r.rank() >= target.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleOperator:
		return 2
	case RoleReader:
		return 1
	}
	return 0
}
