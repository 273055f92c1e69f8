// Package cli provides the interactive fileshare command-line client.
//
// NewApp wires configuration, the HTTP transport, the transfer client and the
// optional upload ledger; App.Root runs a read-eval-print loop until the user
// exits or input ends. Files are selected by their position in the list
// ("2"), by service id ("#17") or by their display text
// ("report.pdf 2.00 MB.").
//
// Commands:
//
//	upload <path>        validate and upload a local file
//	info <file>          show the name and size the service reports
//	download <file>      save a file into the download directory
//	delete <file>        delete a file from the service
//	list                 show uploaded files and the session total
//	endpoint [url]       show or change the service endpoint
//	reset                start a new upload session (clears the size total)
//	help, exit | quit
package cli
