// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/go-adabas/adabas/driver/memengine"
)

const envFixture = "GOADABASFIXTURE"

// testFixture is the TOML fixture the test engines are loaded from.
var testFixture string

func init() {
	fixture, ok := os.LookupEnv(envFixture)
	if !ok {
		fixture = "memengine/testdata/employees.toml"
	}
	flag.StringVar(&testFixture, "fixture", fixture, "test engine fixture")
}

// testFixtureData is the decoded test fixture shared by all tests.
var testFixtureData *memengine.Fixture

func testExit(err error) {
	prefix := ""
	for err != nil {
		log.Printf("%s%s", prefix, err.Error())
		prefix += "."
		err = errors.Unwrap(err)
	}
	os.Exit(1)
}

func TestMain(m *testing.M) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !flag.Parsed() {
		flag.Parse()
	}
	testSetup()
	os.Exit(m.Run())
}

func testSetup() {
	f, err := os.Open(testFixture)
	if err != nil {
		testExit(err)
	}
	defer f.Close()
	if testFixtureData, err = memengine.DecodeFixture(f); err != nil {
		testExit(err)
	}
	// validate once
	if _, err := testFixtureData.NewEngine(); err != nil {
		testExit(err)
	}
}
