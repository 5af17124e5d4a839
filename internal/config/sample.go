package config

// Sample is the commented rules file written by "ledger-importer init".
// It decodes to Default().
const Sample = `# ledger-importer rules.
#
# Columns are 0-based indexes into a CSV row.

# Lines to drop at the top of the file (column titles, ...).
skip_lines: 1

csv_delimiter: ","

date:
  column: 0
  # Go reference layout: 01=month 02=day 2006=year.
  format: "01-02-2006"

payee:
  columns: [2]
  separator: " "

amount:
  # Signed amount. Set column to -1 and use debit_column/credit_column
  # for exports that split outflows and inflows.
  column: 3
  debit_column: -1
  credit_column: -1
  decimal_separator: ","
  strip: "€ "
  # Flip the sign of every amount.
  invert: false
  # Fixed number of decimals in the output, -1 keeps them as parsed.
  decimals: -1

commodity: "€"

# The account this statement belongs to.
account:
  name: Assets:Checking
  # A column holding an account number, mapped through names.
  column: -1

counter_accounts:
  income: Income
  expense: Expenses
  # First matching payee pattern wins.
  # rules:
  #   - pattern: "(?i)supermarket"
  #     account: Expenses:Groceries

# Transactions that match are merged into one: the inflow keeps its row
# and its counter account becomes the other side's account.
match:
  # opposite-amount: opposite amounts booked on different accounts.
  # none: never merge.
  policy: opposite-amount
  # Maximum days between the two sides, 0 for no limit.
  max_days: 0
`
