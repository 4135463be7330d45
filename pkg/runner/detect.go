package runner

import (
	"bytes"
	"io"
	"os"

	"github.com/go-enry/go-enry/v2"
)

// shebangProbe is how much of a file is read to look for a shebang.
const shebangProbe = 256

// phpLanguage is the linguist name of PHP.
const phpLanguage = "PHP"

// isPHPScript reports whether the extension-less file at path is a PHP
// script, judged by its shebang line (#!/usr/bin/env php) or, failing that,
// by an opening tag on the first line.
func isPHPScript(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, shebangProbe)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	return looksLikePHP(head[:n])
}

func looksLikePHP(head []byte) bool {
	if lang, safe := enry.GetLanguageByShebang(head); safe {
		return lang == phpLanguage
	}

	first, _, _ := bytes.Cut(head, []byte("\n"))
	return bytes.HasPrefix(bytes.TrimSpace(first), []byte("<?php"))
}
