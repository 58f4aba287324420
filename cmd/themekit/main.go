// Command themekit loads themes and answers resource queries.
//
//	@title			themekit resource query API
//	@version		1.0
//	@description	Resolve theme resources, inspect load cycles and browse recorded snapshots.
//	@BasePath		/
package main

//go:generate swag init -g main.go -d ./,../../adapters/http,../../app -o ../../docs/swagger --outputTypes go

func main() {
	Execute()
}
