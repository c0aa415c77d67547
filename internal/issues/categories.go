// categories.go — The closed set of inspector issue categories.
// Category values are the artifact's JSON keys; detailFields carries
// the protocol-side field names, which are NOT uniformly derivable from
// the category name.
package issues

// Category identifies one inspector issue category. The set is closed:
// exactly the fifteen categories below exist, and every artifact
// carries all fifteen keys.
type Category string

const (
	CategorySameSiteCookie               Category = "sameSiteCookie"
	CategoryMixedContent                 Category = "mixedContent"
	CategoryBlockedByResponse            Category = "blockedByResponse"
	CategoryHeavyAd                      Category = "heavyAd"
	CategoryContentSecurityPolicy        Category = "contentSecurityPolicy"
	CategorySharedArrayBuffer            Category = "sharedArrayBuffer"
	CategoryTwaQualityEnforcement        Category = "twaQualityEnforcement"
	CategoryLowTextContrast              Category = "lowTextContrast"
	CategoryCors                         Category = "cors"
	CategoryAttributionReporting         Category = "attributionReporting"
	CategoryQuirksMode                   Category = "quirksMode"
	CategoryNavigatorUserAgent           Category = "navigatorUserAgent"
	CategoryWasmCrossOriginModuleSharing Category = "wasmCrossOriginModuleSharing"
	CategoryGeneric                      Category = "generic"
	CategoryDeprecation                  Category = "deprecation"
)

// categoryOrder is the canonical order categories are probed and
// reported in.
var categoryOrder = []Category{
	CategorySameSiteCookie,
	CategoryMixedContent,
	CategoryBlockedByResponse,
	CategoryHeavyAd,
	CategoryContentSecurityPolicy,
	CategorySharedArrayBuffer,
	CategoryTwaQualityEnforcement,
	CategoryLowTextContrast,
	CategoryCors,
	CategoryAttributionReporting,
	CategoryQuirksMode,
	CategoryNavigatorUserAgent,
	CategoryWasmCrossOriginModuleSharing,
	CategoryGeneric,
	CategoryDeprecation,
}

// detailFields maps each category to the field that carries its details
// inside an issue's details object. This is a lookup table, not a
// naming convention: twaQualityEnforcement lacks the "Issue" infix and
// wasmCrossOriginModuleSharing lacks the "Details" suffix, so deriving
// the names from the category would silently drop both categories.
var detailFields = map[Category]string{
	CategorySameSiteCookie:               "sameSiteCookieIssueDetails",
	CategoryMixedContent:                 "mixedContentIssueDetails",
	CategoryBlockedByResponse:            "blockedByResponseIssueDetails",
	CategoryHeavyAd:                      "heavyAdIssueDetails",
	CategoryContentSecurityPolicy:        "contentSecurityPolicyIssueDetails",
	CategorySharedArrayBuffer:            "sharedArrayBufferIssueDetails",
	CategoryTwaQualityEnforcement:        "twaQualityEnforcementDetails",
	CategoryLowTextContrast:              "lowTextContrastIssueDetails",
	CategoryCors:                         "corsIssueDetails",
	CategoryAttributionReporting:         "attributionReportingIssueDetails",
	CategoryQuirksMode:                   "quirksModeIssueDetails",
	CategoryNavigatorUserAgent:           "navigatorUserAgentIssueDetails",
	CategoryWasmCrossOriginModuleSharing: "wasmCrossOriginModuleSharingIssue",
	CategoryGeneric:                      "genericIssueDetails",
	CategoryDeprecation:                  "deprecationIssueDetails",
}

// Categories returns the canonical category order as a fresh copy.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// DetailField returns the details-object field name for c. ok is false
// for values outside the closed category set.
func DetailField(c Category) (field string, ok bool) {
	field, ok = detailFields[c]
	return field, ok
}

// Valid reports whether c is one of the fifteen known categories.
func (c Category) Valid() bool {
	_, ok := detailFields[c]
	return ok
}
