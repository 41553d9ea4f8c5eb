package domain

import "strconv"

// Account selects which upstream API credential pair a request runs under.
// Accounts are numbered from 1 and resolved through the configuration
// lookup table; the zero value means "no account" (used for errors raised
// before any upstream call was attributed).
type Account int

const AccountPrimary Account = 1

func (a Account) String() string { return strconv.Itoa(int(a)) }

func (a Account) Valid() bool { return a > 0 }
