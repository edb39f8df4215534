package share

// VERSION ayya admin service version
const VERSION = "0.4.2"

// PRVERSION ayya PR Commit
const PRVERSION = "DEV"

// BUILDNAME The name of the artifact
const BUILDNAME = "ayya"

// CLIENTNAME the value sent in the x-ayya-client header to the record store
const CLIENTNAME = "api-admin"

// CREATOR the creator written into exported workbooks
const CREATOR = "ayya-admin"

// FILEPREFIX the prefix of generated export file names
const FILEPREFIX = "ayya-export"
