// Package production holds read-only models for the production management
// subsystem. Productions and shows are created and destroyed elsewhere; the
// ticketing feature holds non-owning references to them for linking and
// reporting.
package production
