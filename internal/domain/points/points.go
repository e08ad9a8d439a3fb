// Package points computes AUB ranking points for tournament results.
//
// Every tournament kind maps to a fixed table of points per finishing
// position. Handicap kinds additionally apply the Art. 38 percentage
// formula: a pair finishing at or above 58% earns ceil(pct - 50)
// instead of the table value, and below 50% earns nothing.
package points

import (
	"math"
	"sort"
	"strings"
)

// Tournament kind keys. Handicap variants share the "handicap" prefix
// and are scored with the Art. 38 percentage rules.
const (
	KindHandicap             = "handicap"
	KindHandicapClubes6      = "handicap_clubes_6"
	KindHandicapClubesHowell = "handicap_clubes_howell"
	KindHandicapFinal        = "handicap_final"
	KindCNSeleccionadas      = "cn_seleccionadas"
	KindCNLibres             = "cn_libres"
	KindCNMixtas             = "cn_mixtas"
	KindCPFuerzaLimitada     = "cp_fuerza_limitada"
	KindTorneoParalelo       = "torneo_paralelo"
	KindCNEquiposLibres      = "cn_equipos_libres"
	KindCNEquiposMixtos      = "cn_equipos_mixtos"
	KindEquiposButler        = "equipos_butler"
	KindEquiposHandicap      = "equipos_handicap"
	KindSuperior             = "superior"
	KindParalelo             = "paralelo"
)

// Art. 38 percentage boundaries.
const (
	baselinePct = 50.0
	formulaPct  = 58.0
)

var tables = map[string][]float64{
	KindHandicap:             {10, 5, 3, 1},
	KindHandicapClubes6:      {3, 2, 1},
	KindHandicapClubesHowell: {4, 2, 1},
	KindHandicapFinal:        {15, 10, 5, 3},
	KindCNSeleccionadas:      {180, 140, 110, 80, 60, 50, 40, 30},
	KindCNLibres:             {140, 100, 80, 60, 50, 40, 30, 20},
	KindCNMixtas:             {90, 60, 40, 25, 15, 10, 5},
	KindCPFuerzaLimitada:     {80, 50, 30, 15, 10},
	KindTorneoParalelo:       {20, 15, 10, 5},
	KindCNEquiposLibres:      {180, 130, 90, 60, 30, 20},
	KindCNEquiposMixtos:      {90, 60, 40, 20, 10},
	KindEquiposButler:        {15, 12, 9, 7, 6},
	KindEquiposHandicap:      {15, 10, 5, 3},
	KindSuperior:             {70, 50, 30, 20, 10, 5},
	KindParalelo:             {20, 15, 10, 5, 3},
}

var labels = map[string]string{
	KindHandicap:             "Parejas con Hándicap (Art. 38)",
	KindHandicapClubes6:      "Hándicap Clubes 6+ mesas (Art. 38.B)",
	KindHandicapClubesHowell: "Hándicap Clubes Howell (Art. 38.B)",
	KindHandicapFinal:        "Final con Hándicap (1 noche)",
	KindCNSeleccionadas:      "CN Parejas Seleccionadas",
	KindCNLibres:             "CN Parejas Libres",
	KindCNMixtas:             "CN Parejas Mixtas",
	KindCPFuerzaLimitada:     "CP Fuerza Limitada",
	KindTorneoParalelo:       "Torneo Paralelo PL",
	KindCNEquiposLibres:      "CN Equipos Libres",
	KindCNEquiposMixtos:      "CN Equipos Mixtos",
	KindEquiposButler:        "Equipos Butler",
	KindEquiposHandicap:      "Equipos con Hándicap",
	KindSuperior:             "Superior",
	KindParalelo:             "Paralelo",
}

// ForPosition returns the ranking points for a 1-based finishing
// position. Unknown kinds fall back to the handicap table but are
// scored as plain lookups, matching the federation's published sheet.
func ForPosition(position int, adjustedPct float64, kind string) float64 {
	table, ok := tables[kind]
	if !ok {
		table = tables[KindHandicap]
	}

	if strings.HasPrefix(kind, "handicap") {
		if position >= 1 && position <= len(table) {
			switch {
			case adjustedPct >= formulaPct:
				return math.Ceil(adjustedPct - baselinePct)
			case adjustedPct >= baselinePct:
				return table[position-1]
			}
		}
		return 0
	}

	if position >= 1 && position <= len(table) {
		return table[position-1]
	}
	return 0
}

// Known reports whether kind is a recognized tournament kind.
func Known(kind string) bool {
	_, ok := tables[kind]
	return ok
}

// Label returns the display name of a kind.
func Label(kind string) (string, bool) {
	label, ok := labels[kind]
	return label, ok
}

// Kinds returns every recognized kind key in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(tables))
	for kind := range tables {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// TableFor returns a copy of the points table used for kind, applying
// the same fallback as ForPosition.
func TableFor(kind string) []float64 {
	table, ok := tables[kind]
	if !ok {
		table = tables[KindHandicap]
	}
	out := make([]float64, len(table))
	copy(out, table)
	return out
}
