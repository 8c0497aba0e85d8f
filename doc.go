/*
Package splitwise-app-sheets copies the expenses for a Splitwise group to a Google Sheets spreadsheet.

splitwise-app-sheets can be used from the command line but is really intended to be run from a cron job to
maintain an archive/reporting copy of a shared expense group in Google Drive.

splitwise-app-sheets supports the following commands:

  - sync, to retrieve the expenses for a Splitwise group and overwrite a Google Sheets spreadsheet with them
  - get, to download a Google Sheets worksheet as a TSV file
  - put, to upload a TSV file to a Google Sheets worksheet
  - version, to display the current version
*/
package sheets
