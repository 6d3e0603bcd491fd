package main

import "github.com/kicentre/madrasa/storage/database"

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	return migrateFunc(cli.db.DB)
}
