// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"testing"
)

func TestValidContestID(t *testing.T) {
	valid := []string{
		"summer-2025",
		"abc",
		"a1b",
		"contest-with-many-parts-okay",
		strings.Repeat("a", 30),
	}
	for _, id := range valid {
		if !ValidContestID(id) {
			t.Errorf("Expected %q to be valid", id)
		}
	}

	invalid := []string{
		"",
		"ab",                     // too short
		strings.Repeat("a", 31),  // too long
		"-summer",                // leading hyphen
		"summer-",                // trailing hyphen
		"summer--2025",           // consecutive hyphens
		"summer 2025",            // space
		"summer_2025",            // underscore
		"sömmer-2025",            // non-ascii
	}
	for _, id := range invalid {
		if ValidContestID(id) {
			t.Errorf("Expected %q to be invalid", id)
		}
	}
}

func TestValidSongName(t *testing.T) {
	if !ValidSongName("Midnight Drive") {
		t.Error("Expected plain song name to be valid")
	}
	if ValidSongName("") {
		t.Error("Expected empty name to be invalid")
	}
	if ValidSongName("   ") {
		t.Error("Expected whitespace-only name to be invalid")
	}
	if ValidSongName(strings.Repeat("x", MaxSongNameLength+1)) {
		t.Error("Expected over-long name to be invalid")
	}
	if ValidSongName("bad\x00name") {
		t.Error("Expected control characters to be invalid")
	}
}

func TestValidURL(t *testing.T) {
	valid := []string{
		"https://suno.com/song/abc123",
		"http://www.youtube.com/watch?v=xyz",
	}
	for _, u := range valid {
		if !ValidURL(u) {
			t.Errorf("Expected %q to be valid", u)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://suno.com/song/abc",
		"javascript:alert(1)",
		"https://",
		"https://" + strings.Repeat("a", MaxURLLength),
	}
	for _, u := range invalid {
		if ValidURL(u) {
			t.Errorf("Expected %q to be invalid", u)
		}
	}
}

func TestCleanUserInput(t *testing.T) {
	got := CleanUserInput("hello\u200bworld")
	if got != "helloworld" {
		t.Errorf("Expected zero-width characters stripped, got %q", got)
	}

	got = CleanUserInput("  lots   of\t\twhitespace \n here ")
	if got != "lots of whitespace here" {
		t.Errorf("Expected collapsed whitespace, got %q", got)
	}
}

func TestValidStatusTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusActive, StatusVoting},
		{StatusActive, StatusClosed},
		{StatusVoting, StatusClosed},
		{StatusActive, StatusActive}, // no-op
	}
	for _, tr := range allowed {
		if !ValidStatusTransition(tr[0], tr[1]) {
			t.Errorf("Expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}

	forbidden := [][2]string{
		{StatusVoting, StatusActive},
		{StatusClosed, StatusActive},
		{StatusClosed, StatusVoting},
	}
	for _, tr := range forbidden {
		if ValidStatusTransition(tr[0], tr[1]) {
			t.Errorf("Expected %s -> %s to be forbidden", tr[0], tr[1])
		}
	}
}

func TestValidateStructCreateContest(t *testing.T) {
	req := CreateContestRequest{
		ContestID:     "summer-2025",
		PublicChannel: "public",
		ReviewChannel: "review",
	}
	if err := ValidateStruct(req); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}

	req.ContestID = "--bad--"
	err := ValidateStruct(req)
	if err == nil {
		t.Fatal("Expected validation error for bad contest id")
	}
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T", err)
	}

	req.ContestID = "summer-2025"
	req.SubmissionLimit = 11
	if err := ValidateStruct(req); err == nil {
		t.Error("Expected validation error for limit above 10")
	}
}
