// package models defines the data model for the dataset review client
package models
