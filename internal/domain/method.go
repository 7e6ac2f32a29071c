package domain

// MethodInfo describes one entry of the strategy table for the /methods listing.
type MethodInfo struct {
	Name        Method       `json:"name"`
	Strategy    StrategyName `json:"strategy"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
}

var StrategyDescriptions = map[StrategyName]string{
	StrategyPassThrough: "Returns the uploaded image unchanged",
	StrategyCorner:      "Estimates the background colour from the four corners and clears pixels close to it",
	StrategyBrightness:  "Clears every pixel brighter than a fixed threshold",
	StrategyExternal:    "Delegates to the remove.bg API",
}
