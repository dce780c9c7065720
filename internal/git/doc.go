// Package git reads repository history for content files.
//
// It is used to fill the "last updated" date of collection entries from the
// most recent commit that touched each file. Only local, read-only access is
// performed; no network operations are made.
package git
