package contracts

type IAmalgamator interface {
	Flatten(entryPath string) (string, error)
	Generate(entryPath string, destinationPath string) error
	SearchRoot() string
}
