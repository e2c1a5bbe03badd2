package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./cantomatch.db"

	// DefaultBaseURL is the root of the site the catalog is scraped from
	DefaultBaseURL = "https://www.cantineocatecumenale.it"

	// DefaultStartPath is the first page of the song list
	DefaultStartPath = "/lista-canti/"
)
