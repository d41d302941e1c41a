package grovedb

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// File-driven test harness. Inputs are whitespace-separated tokens; integer
// keys double as their own record payload.

// InsertFromFile reads integer keys from path and inserts them one by one.
// Duplicate keys in the input are ignored like any other duplicate insert.
func (t *BPlusTree) InsertFromFile(path string) error {
	return t.eachToken(path, func(sc *bufio.Scanner) error {
		key, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return fmt.Errorf("parse key %q: %w", sc.Text(), err)
		}
		_, err = t.Insert(KeyFromInt64(key), RIDFromUint64(uint64(key)))
		return err
	})
}

// RemoveFromFile reads integer keys from path and removes them one by one.
func (t *BPlusTree) RemoveFromFile(path string) error {
	return t.eachToken(path, func(sc *bufio.Scanner) error {
		key, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return fmt.Errorf("parse key %q: %w", sc.Text(), err)
		}
		return t.Remove(KeyFromInt64(key))
	})
}

// BatchOpsFromFile reads (op, key) pairs where op is 'i' or 'd'. Unknown ops
// skip their key.
func (t *BPlusTree) BatchOpsFromFile(path string) error {
	return t.eachToken(path, func(sc *bufio.Scanner) error {
		op := sc.Text()
		if !sc.Scan() {
			return fmt.Errorf("op %q: missing key", op)
		}
		key, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return fmt.Errorf("parse key %q: %w", sc.Text(), err)
		}
		switch op {
		case "i":
			_, err = t.Insert(KeyFromInt64(key), RIDFromUint64(uint64(key)))
			return err
		case "d":
			return t.Remove(KeyFromInt64(key))
		default:
			return nil
		}
	})
}

func (t *BPlusTree) eachToken(path string, fn func(*bufio.Scanner) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if err := fn(sc); err != nil {
			return err
		}
	}
	return sc.Err()
}
