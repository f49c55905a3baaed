// Copyright 2026 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package briefing syncs a briefing spreadsheet to a single Cloud Firestore document.

briefing-sync can be used from the command line but is really intended to be run from a cron job to keep the
Firestore copy of a briefing sheet current. Every worksheet in the source spreadsheet is stored as a field of
one document, keyed by the ID of the converted Google Sheets copy.

briefing-sync supports the following commands:

  - authorise, to run the one-time OAuth2 consent flow and save the issued tokens
  - sync, to convert a Drive file (or a local .xlsx workbook) and upsert it to Firestore
  - check, to transcode and validate a spreadsheet without uploading it
  - get, to download a worksheet from a synced Firestore document as a TSV file
  - version, to display the current version
*/
package briefing
