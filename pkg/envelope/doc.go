// Package envelope builds OPS request documents and reads OPS responses.
//
// Every OpenSRS exchange is a single XML document:
//
//	<?xml version="1.0" encoding="UTF-8" standalone="no"?>
//	<!DOCTYPE OPS_envelope SYSTEM 'ops.dtd'>
//	<OPS_envelope>
//	  <header>
//	    <version>0.9</version>
//	  </header>
//	  <body>
//	    <data_block>...</data_block>
//	  </body>
//	</OPS_envelope>
//
// A Request is filled with exactly one payload block and rendered to text;
// the text is what gets signed and sent. A Response is parsed from the raw
// reply and offers lookups for the fields every reply carries.
package envelope
