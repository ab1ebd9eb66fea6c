package pricing

// RequiresCustomQuote reports whether a configuration must be routed to a
// manual enterprise quote instead of an instant price.
func RequiresCustomQuote(cfg Configuration) (bool, error) {
	rule, err := cfg.rule()
	if err != nil {
		return false, err
	}
	return pricerFor(rule.Family).escalates(rule, cfg), nil
}
