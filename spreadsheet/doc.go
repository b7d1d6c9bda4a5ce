// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package spreadsheet reads the survey workbook and writes it back out.

Read and ReadFile return the raw cells of one sheet; BuildRecords turns
them into records, skipping rows without a usable municipality name.
Write renders stored records in the stored header order.
*/
package spreadsheet
