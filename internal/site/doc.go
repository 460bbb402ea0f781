// Package site builds the immutable SiteConfig record handed to the static-site
// build tool: the canonical site URL, the ordered integrations and the selected
// syntax-highlighting backend.
//
// Construction is pure. Build validates every literal it is given and reports
// the first problem as a *ConfigValidationError naming the offending field; the
// record it returns is never mutated afterwards and may be shared freely.
package site
