// Package wire implements the OPS XML value codec used by the OpenSRS API.
//
// OpenSRS requests and responses carry their data as a small tree of
// generic values. This package defines that value model and converts it to
// and from the XML elements of the OPS dialect.
//
// # Value Model
//
// A Value is one of four variants:
//   - Scalar: a string or number leaf, always carried as text
//   - List: an ordered sequence, encoded as <dt_array>
//   - Map: an ordered key/value sequence, encoded as <dt_assoc>
//   - Extension: a delegate that writes its own <item> contents
//
// # Wire Shape
//
//	<data_block>
//	  <dt_assoc>
//	    <item key="protocol">XCP</item>
//	    <item key="attributes">
//	      <dt_assoc>
//	        <item key="domain">example.com</item>
//	      </dt_assoc>
//	    </item>
//	  </dt_assoc>
//	</data_block>
//
// List items carry their position as the key attribute ("0", "1", ...).
//
// # List or Map
//
// Native Go collections are classified by their keys: a collection is a
// List only if its keys are exactly 0..n-1 in order. An empty collection is
// ambiguous and is encoded as an empty List.
//
// # Absent vs Empty
//
// Decoding an element with neither a <dt_assoc> nor a <dt_array> child
// yields no value at all (ok == false). This is distinct from an empty
// Map or List and is not an error.
package wire
