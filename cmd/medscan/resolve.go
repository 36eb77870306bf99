package main

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	record, err := deps.Medicines.LookupURL(deps.Ctx, c.URL)
	if err != nil {
		return fail(deps, err)
	}

	if c.JSON {
		return printJSON(deps.Stdout, record)
	}
	printRecord(deps.Stdout, record)
	return nil
}
