package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

var defaultPolicies = [][]string{
	{string(RoleAdmin), "/api/admin/*", "^(GET|POST)$"},
	{string(RoleAdmin), "/api/portal/*", "^GET$"},
	{string(RoleCustomer), "/api/portal/*", "^GET$"},
}

// Authorizer decides whether a role may call a route.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range defaultPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func (a *Authorizer) Allow(role Role, path, method string) (bool, error) {
	return a.enforcer.Enforce(string(role), path, method)
}
