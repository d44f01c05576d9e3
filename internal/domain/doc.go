// Package domain derives operator guidance for a public water system (PWS)
// from SDWIS compliance data, live SCADA readings, and the capital asset list.
//
// Every exported function here is pure apart from reading the package clock,
// and none of them return errors: missing inputs mean "rule does not apply"
// or "use the stated default".
//
// # Data Source
//
// System and violation records come from EPA ECHO's SDWIS services
// (dsdw_rest_services.get_systems / get_violations). Field names differ between
// service versions and exports, e.g. the significance flag appears as
// "IsSignificant" or "SIG_VIOL". [NormalizeSystem] and [NormalizeViolation]
// resolve each canonical field through an ordered alias table; the first
// non-empty value wins.
//
// # Significant Violations
//
// A violation is significant when its marker equals "Y" ignoring case and
// surrounding whitespace. Values such as "Yes" are not treated as significant.
//
// # Advisory Thresholds
//
//	Tank level      < 30 %       low storage
//	Pressure        < 35 psi     low distribution pressure
//	Flow            > 500 gpm    demand spike or leak
//	Free chlorine   < 0.2 mg/L   low residual
//	Turbidity       > 1 NTU      filtration problem
//	Customer calls  >= 5 / hour  incident communications
//
// A separate 45 psi floor applies to SCADA-sourced readings when building the
// next-action worklist (see [BuildNextActions]).
//
// # Asset Risk
//
// Asset lines follow "Name (Year) | condition: Good|Fair|Poor | est. cost: N".
// Risk is condition score (poor 3, fair 2, good 1) plus age band (>=30 years 3,
// >=15 years 2, else 1). Lines without a year assume an age of 20.
//
// # Time
//
// Due dates and asset ages are relative to the package clock, which tests
// replace with a fake via [SetClock].
package domain
