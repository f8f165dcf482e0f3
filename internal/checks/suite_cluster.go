package checks

import (
	"context"
	"fmt"

	"github.com/fieldeng/clusterdoc/internal/report"
)

func registerClusterChecks(r *Registry) {
	r.Register(checkClusterReachable())
	r.Register(checkClusterSizing())
	r.Register(checkClusterQuorum())
	r.Register(checkClusterLicense())
}

const apiNotConfigured = "management API not configured"

// checkClusterReachable verifies the management API answers.
func checkClusterReachable() Check {
	c := Check{
		ID:          "cluster-reachable",
		Description: "Check management API is reachable",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		if env.API == nil {
			return skipped(c, apiNotConfigured)
		}

		doc, err := env.API.Get(ctx, "cluster")
		if err != nil {
			return failed(c, err)
		}

		info := map[string]string{}
		if obj, ok := doc.(map[string]interface{}); ok {
			if name, ok := obj["name"].(string); ok {
				info["name"] = name
			}
		}
		return pass(c, info)
	}
	return c
}

// checkClusterSizing reports node count, core count, and total memory.
func checkClusterSizing() Check {
	c := Check{
		ID:          "cluster-sizing",
		Description: "Get cluster sizing",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		if env.API == nil {
			return skipped(c, apiNotConfigured)
		}

		nodes, err := env.API.Count(ctx, "nodes")
		if err != nil {
			return failed(c, err)
		}
		cores, err := env.API.Sum(ctx, "nodes", "cores")
		if err != nil {
			return failed(c, err)
		}
		memory, err := env.API.Sum(ctx, "nodes", "total_memory")
		if err != nil {
			return failed(c, err)
		}

		return inform(c, map[string]string{
			"number of nodes": fmt.Sprintf("%d", nodes),
			"number of cores": fmt.Sprintf("%.0f", cores),
			"total memory":    fmt.Sprintf("%.1f GB", memory/(1024*1024*1024)),
		})
	}
	return c
}

// checkClusterQuorum verifies the node count allows a majority vote.
func checkClusterQuorum() Check {
	c := Check{
		ID:          "cluster-quorum",
		Description: "Check cluster has an odd number of nodes",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		if env.API == nil {
			return skipped(c, apiNotConfigured)
		}

		nodes, err := env.API.Count(ctx, "nodes")
		if err != nil {
			return failed(c, err)
		}

		info := map[string]string{"number of nodes": fmt.Sprintf("%d", nodes)}
		if nodes == 0 || nodes%2 == 0 {
			return fail(c, info)
		}
		return pass(c, info)
	}
	return c
}

// checkClusterLicense verifies the license is not expired.
func checkClusterLicense() Check {
	c := Check{
		ID:          "cluster-license",
		Description: "Check license",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		if env.API == nil {
			return skipped(c, apiNotConfigured)
		}

		doc, err := env.API.Get(ctx, "license")
		if err != nil {
			return failed(c, err)
		}
		obj, ok := doc.(map[string]interface{})
		if !ok {
			return failed(c, fmt.Errorf("license is not an object"))
		}

		info := map[string]string{}
		if exp, ok := obj["expiration_date"].(string); ok {
			info["expires"] = exp
		}
		if expired, _ := obj["expired"].(bool); expired {
			info["expired"] = "true"
			return fail(c, info)
		}
		return pass(c, info)
	}
	return c
}
