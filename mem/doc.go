// Package mem wraps the host's raw block primitives in a Block handle
// with explicit ownership. Blocks are allocated and freed by offset;
// offset 0 is the universal "absent" value and every Block operation
// treats it as empty. All bulk transfers move 8-byte words first and
// finish the remainder byte by byte.
package mem
