package cli

// MaxDependenciesShown is the number of dependencies listed per table row before truncating.
const MaxDependenciesShown = 4
