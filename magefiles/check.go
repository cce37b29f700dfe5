//go:build mage

package main

// Runs the test suite with the race detector.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Runs go vet over the module.
func Lint() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Tidies go.mod.
func Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"))
	return err
}
