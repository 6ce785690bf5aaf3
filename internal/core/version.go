package core

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"depsync/internal/types"
)

// VersionComparator orders version strings with the semantics of one
// backend family: PEP 440 for the runtime index, Debian ordering for
// the apt and dnf system managers, semver for brew and winget.  Parsed
// versions are memoized so repeated comparisons during a pass do not
// re-parse.
type VersionComparator struct {
	backend types.Backend
	deb     map[string]debversion.Version
	pep     map[string]pep440.Version
	sem     map[string]*semver.Version
	bad     map[string]bool
}

func NewVersionComparator(backend types.Backend) *VersionComparator {
	return &VersionComparator{
		backend: backend,
		deb:     map[string]debversion.Version{},
		pep:     map[string]pep440.Version{},
		sem:     map[string]*semver.Version{},
		bad:     map[string]bool{},
	}
}

// Compare returns -1, 0, or 1.  An unparseable version never fails a
// comparison: it orders below every parseable version, equal to other
// unparseable ones, and is reported once as a data-quality warning.
func (c *VersionComparator) Compare(a string, b string) int {
	aOK := c.parse(a)
	bOK := c.parse(b)
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return -1
	case !bOK:
		return 1
	}
	switch c.backend {
	case types.BackendPip:
		return c.pep[a].Compare(c.pep[b])
	case types.BackendApt, types.BackendDnf:
		return c.deb[a].Compare(c.deb[b])
	case types.BackendBrew, types.BackendWinget:
		return c.sem[a].Compare(c.sem[b])
	default:
		return 0
	}
}

// parse memoizes the family-specific parse of value and reports
// whether it succeeded.  Empty strings mean absent/unknown and are
// never flagged.
func (c *VersionComparator) parse(value string) bool {
	if value == "" {
		return false
	}
	if c.bad[value] {
		return false
	}
	switch c.backend {
	case types.BackendPip:
		if _, ok := c.pep[value]; ok {
			return true
		}
		parsed, err := pep440.Parse(value)
		if err != nil {
			c.flag(value)
			return false
		}
		c.pep[value] = parsed
	case types.BackendApt, types.BackendDnf:
		if _, ok := c.deb[value]; ok {
			return true
		}
		parsed, err := debversion.NewVersion(value)
		if err != nil {
			c.flag(value)
			return false
		}
		c.deb[value] = parsed
	case types.BackendBrew, types.BackendWinget:
		if _, ok := c.sem[value]; ok {
			return true
		}
		parsed, err := semver.NewVersion(value)
		if err != nil {
			c.flag(value)
			return false
		}
		c.sem[value] = parsed
	default:
		return false
	}
	return true
}

func (c *VersionComparator) flag(value string) {
	c.bad[value] = true
	log.Warn().
		Str("version", value).
		Str("backend", string(c.backend)).
		Msg("unparseable version string, ordering below parseable versions")
}

// VersionParseable reports whether a target string parses under at
// least one supported backend family.  Manifest validation uses it to
// reject targets no backend could order.
func VersionParseable(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	if _, err := pep440.Parse(trimmed); err == nil {
		return true
	}
	if _, err := debversion.NewVersion(trimmed); err == nil {
		return true
	}
	if _, err := semver.NewVersion(trimmed); err == nil {
		return true
	}
	return false
}
