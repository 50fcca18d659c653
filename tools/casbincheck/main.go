package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Loads the RBAC model and csv policy the gateway uses and optionally
// evaluates one request against them.
// Usage:
//
//	go run ./tools/casbincheck \
//	  -model  etc/rbac_model.conf \
//	  -policy etc/rbac_policy.csv \
//	  -sub venue_owner -obj /api/admin/venues/123 -act PUT
func main() {
	model := flag.String("model", "etc/rbac_model.conf", "path to the casbin model")
	policy := flag.String("policy", "etc/rbac_policy.csv", "path to the csv policy")
	sub := flag.String("sub", "", "role to check")
	obj := flag.String("obj", "", "request path to check")
	act := flag.String("act", "GET", "http method to check")
	flag.Parse()

	e, err := casbin.NewEnforcer(*model, fileadapter.NewAdapter(*policy))
	if err != nil {
		log.Fatalf("load enforcer: %v", err)
	}

	ps, err := e.GetPolicy()
	if err != nil {
		log.Fatalf("read policy: %v", err)
	}
	gs, err := e.GetGroupingPolicy()
	if err != nil {
		log.Fatalf("read grouping policy: %v", err)
	}
	fmt.Printf("Loaded %d p, %d g rules.\n", len(ps), len(gs))

	if *sub == "" || *obj == "" {
		return
	}
	ok, err := e.Enforce(*sub, *obj, *act)
	if err != nil {
		log.Fatalf("enforce: %v", err)
	}
	fmt.Printf("%s %s %s -> %t\n", *sub, *act, *obj, ok)
	if !ok {
		os.Exit(1)
	}
}
