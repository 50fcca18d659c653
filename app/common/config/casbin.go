package config

import (
	"github.com/casbin/casbin/v2"
)

// CasbinConf points at a model file and a csv policy file loaded through
// casbin's file adapter.
type CasbinConf struct {
	Model  string `json:",default=etc/rbac_model.conf"`
	Policy string `json:",default=etc/rbac_policy.csv"`
}

func (c CasbinConf) MustNewEnforcer() *casbin.SyncedEnforcer {
	enforcer, err := casbin.NewSyncedEnforcer(c.Model, c.Policy)
	if err != nil {
		panic(err)
	}
	return enforcer
}
