// Package scenario maps scenario directory names to human readable descriptions.
package scenario

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoInjection is the name of the control scenario run without injected traffic.
const NoInjection = "NO INJECTION"

var builtin = map[string]string{
	"INJ_IPS_WAF_WEB":      "Injector → IPS (Suricata) actif → WAF (proxy Apache avec ModSecurity) actif → Backend web. Test complet avec IDS/IPS et WAF inline.",
	"INJ_IPS_WEB_NO_PROXY": "Injector → IPS actif → connexion directe vers le Backend (pas de proxy WAF). Permet mesurer l'impact de l'IPS seul.",
	"INJ_IPS_WEB_PROXY":    "Injector → IPS actif → WAF machine en mode proxy (sans ModSecurity activé) → Backend. Mesure l'overhead du proxy seul avec IPS.",
	"INJ_NFQ_WAF_WEB":      "Injector → NFQUEUE présent mais Suricata pas en mode bloquant (ou acceptant) → WAF actif → Backend. Test du cas où NFQUEUE est installé mais trafic accepté.",
	"INJ_WAF_WEB":          "Injector → Pas d'IPS → WAF (proxy + ModSecurity) actif → Backend. Mesure l'impact du WAF seul.",
	"INJ_WEB":              "Injector → Pas d'IPS → Pas de proxy (accès direct au Backend). Mesures baseline sans WAF ni proxy ni IPS.",
	"INJ_WEB_PROXY":        "Injector → Pas d'IPS → Proxy (WAF machine en tant que reverse-proxy, ModSecurity désactivé) → Backend. Test proxy sans fonctionnalités WAF.",
	NoInjection:            "Tests sans trafic d'injection (contrôles ou mesures à vide).",
}

// Catalog resolves scenario names to descriptions. The zero value is an empty catalog
// that synthesizes every description.
type Catalog struct {
	entries map[string]string
}

// DefaultCatalog returns the catalog of the scenarios of the reference test bench.
func DefaultCatalog() Catalog {
	return Catalog{entries: maps.Clone(builtin)}
}

// LoadCatalog reads a YAML mapping of scenario name to description and merges it over
// the default catalog. Entries in the file win over built-in ones.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read scenario catalog: %w", err)
	}

	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse scenario catalog %s: %w", path, err)
	}

	c := DefaultCatalog()
	for name, desc := range extra {
		if strings.TrimSpace(desc) == "" {
			continue
		}
		c.entries[name] = desc
	}
	return c, nil
}

// Describe returns the catalog description of name, or a synthesized one when the
// name is not known.
func (c Catalog) Describe(name string) string {
	if desc, ok := c.entries[name]; ok {
		return desc
	}
	return Synthesize(name)
}

// Names returns the known scenario names in lexicographic order.
func (c Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Synthesize builds a description from the underscore separated tokens of name.
func Synthesize(name string) string {
	parts := strings.Split(name, "_")
	has := func(tok string) bool { return slices.Contains(parts, tok) }

	var phrases []string
	if has("INJ") || strings.HasPrefix(name, "INJ") {
		phrases = append(phrases, "Injection depuis Injector")
	}
	if has("IPS") {
		phrases = append(phrases, "IPS (Suricata) actif")
	}
	if has("NFQ") {
		phrases = append(phrases, "NFQUEUE présent")
	}
	if has("WAF") {
		phrases = append(phrases, "WAF (proxy / ModSecurity) actif")
	}
	if has("WEB") || has("BACKEND") {
		phrases = append(phrases, "Backend web présent")
	}
	if has("PROXY") || has("NO") {
		if has("NO") {
			phrases = append(phrases, "accès direct au backend (pas de proxy)")
		} else {
			phrases = append(phrases, "reverse-proxy en place")
		}
	}

	if len(phrases) == 0 {
		return "Scénario non documenté — nom brut: " + name
	}
	return strings.Join(phrases, " — ")
}
