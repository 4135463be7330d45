package config

// ParseRuleFormat returns the rule format named by s.
func ParseRuleFormat(s string) (RuleFormat, bool) {
	switch format := RuleFormat(s); format {
	case RuleFormatName, RuleFormatID, RuleFormatCombined:
		return format, true
	}
	return "", false
}

// FormatRuleID renders a rule identifier. Rules without a name always
// render as their ID; an unknown format renders the name.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	switch {
	case ruleName == "", format == RuleFormatID:
		return ruleID
	case format == RuleFormatCombined:
		return ruleID + "/" + ruleName
	}
	return ruleName
}
