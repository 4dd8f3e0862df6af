// Package permissions models the closed set of capability flags a user can
// hold. The set is a bitmap: one bit per capability, stored as a single
// integer column and serialized as the {"ADMIN": false, ...} map the API
// has always exposed.
package permissions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
)

type Set uint32

const (
	Admin Set = 1 << iota
	CreateQuestion
	EditQuestion
	DeleteQuestion
	CreateCollection
	EditCollection
	DeleteCollection
	CreateUser
	EditUser
	DeleteUser
)

// flags is ordered so the JSON map renders deterministically.
var flags = []struct {
	flag Set
	name string
}{
	{Admin, "ADMIN"},
	{CreateQuestion, "CREATE_QUESTION"},
	{EditQuestion, "EDIT_QUESTION"},
	{DeleteQuestion, "DELETE_QUESTION"},
	{CreateCollection, "CREATE_COLLECTION"},
	{EditCollection, "EDIT_COLLECTION"},
	{DeleteCollection, "DELETE_COLLECTION"},
	{CreateUser, "CREATE_USER"},
	{EditUser, "EDIT_USER"},
	{DeleteUser, "DELETE_USER"},
}

// Default returns the grant set for newly registered users: every
// capability except ADMIN, which is only granted out-of-band.
func Default() Set {
	var s Set
	for _, f := range flags {
		if f.flag != Admin {
			s |= f.flag
		}
	}
	return s
}

func (s Set) Has(flag Set) bool { return s&flag == flag }

func (s *Set) Grant(flag Set) { *s |= flag }

func (s *Set) Revoke(flag Set) { *s &^= flag }

// Authorize implements the ownership-or-admin check that gates every
// mutating operation: the actor must hold ADMIN or be the resource owner.
// A nil owner means the resource is unowned and only an admin may act.
func Authorize(actorPerms Set, actorID uint, ownerID *uint) error {
	if actorPerms.Has(Admin) {
		return nil
	}
	if ownerID != nil && *ownerID == actorID {
		return nil
	}
	return apperrors.ErrNeedOwnershipOrAdmin
}

func (s Set) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(flags))
	for _, f := range flags {
		m[f.name] = s.Has(f.flag)
	}
	return json.Marshal(m)
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Set
	for name, granted := range m {
		if !granted {
			continue
		}
		flag, ok := byName(name)
		if !ok {
			return fmt.Errorf("unknown permission %q", name)
		}
		out |= flag
	}
	*s = out
	return nil
}

func byName(name string) (Set, bool) {
	for _, f := range flags {
		if f.name == name {
			return f.flag, true
		}
	}
	return 0, false
}

// Value and Scan store the bitmap as an integer column.

func (s Set) Value() (driver.Value, error) { return int64(s), nil }

func (s *Set) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = Set(v)
		return nil
	case uint64:
		*s = Set(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into permissions.Set", value)
	}
}
