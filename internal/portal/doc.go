// Package portal is a session client for the kt.kanazawa-med.ac.jp handout
// portal.
//
// A Client keeps the login cookie between requests, paces requests so that
// at least Config.Interval passes between two of them, and decodes every page
// from Shift_JIS before handing it to the parser package.
//
// Example usage:
//
//	c, err := portal.New(portal.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if err := c.Login(ctx, id, password); err != nil {
//		return err
//	}
//	handouts, err := c.FetchHandouts(ctx, kttime.SlashDate("2024/04/01"), "", "")
package portal
