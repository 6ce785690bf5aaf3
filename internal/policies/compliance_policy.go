package policies

import (
	"fmt"
	"strings"

	"depsync/internal/types"
)

// CompareFunc orders two version strings. Negative when a is older than
// b, zero when equivalent, positive when a is newer.
type CompareFunc func(a, b string) int

// CompliancePolicy is the pure decision table of the reconciler: given a
// declaration and the resolved installed/latest versions it yields the
// package status and the action that closes the gap. No I/O happens here.
type CompliancePolicy struct {
	Compare CompareFunc
}

func NewCompliancePolicy(compare CompareFunc) CompliancePolicy {
	return CompliancePolicy{Compare: compare}
}

func (p CompliancePolicy) Decide(declaration types.Declaration, resolved types.ResolvedVersions) types.Decision {
	installed := strings.TrimSpace(resolved.Installed)
	latest := strings.TrimSpace(resolved.Latest)
	target := strings.TrimSpace(declaration.Version.Target)
	policy := declaration.Version.Policy

	if installed == "" {
		if policy == types.VersionPolicyLatest && latest != "" {
			return types.Decision{
				Status: types.StatusMissing,
				Action: types.Action{Kind: types.ActionInstall, Version: latest},
				Reason: fmt.Sprintf("not installed, latest policy installs newest known version %s", latest),
			}
		}
		return types.Decision{
			Status: types.StatusMissing,
			Action: types.Action{Kind: types.ActionInstall, Version: target},
			Reason: fmt.Sprintf("not installed, installing declared target %s", target),
		}
	}

	if policy == types.VersionPolicyLatest && latest != "" && p.compare(installed, latest) == 0 {
		return types.Decision{
			Status: types.StatusLatest,
			Action: types.Action{Kind: types.ActionNone},
			Reason: "already at the newest available version",
		}
	}

	switch cmp := p.compare(installed, target); {
	case cmp < 0:
		if policy == types.VersionPolicyRestricted {
			return types.Decision{
				Status: types.StatusOutdated,
				Action: types.Action{Kind: types.ActionNone},
				Reason: fmt.Sprintf("installed %s is behind target %s, restricted policy declines upgrades", installed, target),
			}
		}
		wanted := target
		if latest != "" {
			wanted = latest
		}
		return types.Decision{
			Status: types.StatusOutdated,
			Action: types.Action{Kind: types.ActionUpgrade, Version: wanted},
			Reason: fmt.Sprintf("installed %s is behind, upgrading to %s", installed, wanted),
		}
	case cmp == 0:
		if policy == types.VersionPolicyLatest && latest != "" && p.compare(latest, target) > 0 {
			return types.Decision{
				Status: types.StatusOutdated,
				Action: types.Action{Kind: types.ActionNone},
				Reason: fmt.Sprintf("target %s matched but %s is available, informational only", target, latest),
			}
		}
		return types.Decision{
			Status: types.StatusMatched,
			Action: types.Action{Kind: types.ActionNone},
			Reason: fmt.Sprintf("installed version matches target %s", target),
		}
	default:
		if policy == types.VersionPolicyRestricted {
			return types.Decision{
				Status: types.StatusDowngraded,
				Action: types.Action{Kind: types.ActionDowngrade, Version: target},
				Reason: fmt.Sprintf("installed %s is ahead of pinned target %s, downgrading", installed, target),
			}
		}
		return types.Decision{
			Status: types.StatusUpgraded,
			Action: types.Action{Kind: types.ActionNone},
			Reason: fmt.Sprintf("installed %s is ahead of target %s, latest policy keeps it", installed, target),
		}
	}
}

func (p CompliancePolicy) compare(a, b string) int {
	if p.Compare == nil {
		return strings.Compare(a, b)
	}
	return p.Compare(a, b)
}
