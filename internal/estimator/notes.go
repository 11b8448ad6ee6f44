package estimator

// Caveats lists the factors that make real costs differ from the heuristics.
// Renderers show them next to every estimate.
func Caveats() []string {
	return []string{
		"La localisation et les tarifs d'amarrage locaux",
		"L'âge et l'état du yacht",
		"Le type de maintenance requis",
		"Les salaires locaux de l'équipage",
		"La consommation réelle de carburant",
	}
}

// Disclaimer introduces the caveats.
const Disclaimer = "Ces calculs sont des estimations basées sur des moyennes du secteur. " +
	"Les coûts réels peuvent varier en fonction de nombreux facteurs, notamment :"
