// Package medscan extracts medicine records and search listings from the
// pages of an online pharmaceutical database whose markup has changed over
// time. Detail pages yield one MedicineRecord; search pages yield a list of
// ListingEntry values that link back to detail pages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package medscan
