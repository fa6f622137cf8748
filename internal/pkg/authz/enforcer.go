package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Enforcer evaluates the role capability table.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads one policy line per role/permission pair of table.
func NewEnforcer(table map[user.Role][]user.Permission) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse authz model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	var rules [][]string
	for role, perms := range table {
		for _, p := range perms {
			obj, act := split(p)
			rules = append(rules, []string{string(role), obj, act})
		}
	}
	if len(rules) > 0 {
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("load policies: %w", err)
		}
	}

	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether role holds permission. Evaluation errors deny.
func (e *Enforcer) Allowed(role user.Role, permission user.Permission) bool {
	obj, act := split(permission)
	ok, err := e.enforcer.Enforce(string(role), obj, act)
	return err == nil && ok
}

// split turns "leave.approve" into ("leave", "approve").
func split(p user.Permission) (string, string) {
	obj, act, found := strings.Cut(string(p), ".")
	if !found {
		return obj, ""
	}
	return obj, act
}
