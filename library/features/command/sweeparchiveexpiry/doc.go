// Package sweeparchiveexpiry implements the archive retention sweep.
//
// Every archived book whose archive date lies core.ArchiveRetentionDays or more calendar days before
// today is purged. All purges of one sweep are appended atomically. The sweep runs before every
// archive listing and periodically from the sweeper.
package sweeparchiveexpiry
