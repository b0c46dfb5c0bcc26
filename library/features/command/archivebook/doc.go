// Package archivebook implements the Archive Book use case. An archived book leaves the active catalog
// and can be retrieved for core.ArchiveRetentionDays days. A book with copies still lent out cannot be
// archived.
package archivebook
